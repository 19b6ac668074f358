package models

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
)

const DefaultResetPassword = "12345678"

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"password,omitempty"`
	Role      UserRole  `gorm:"type:enum('super_admin','manager','admin');not null" json:"role"`
	ManagerId *int      `gorm:"index" json:"manager_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role" binding:"required"`
}

type UpdateUserInput struct {
	Name *string   `json:"name"`
	Role *UserRole `json:"role"`
}

/*
caches:
	User:$name
	Tokens:$name (set of live session tokens)
	Token:$token (session token -> name)
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Name)
}

func (result *User) PrepareGive() {
	result.Password = ""
}

type LoginInfo struct {
	Token string   `json:"token"`
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// credentialsValid treats every compare failure as a mismatch, including a
// malformed stored hash.
func credentialsValid(hashed, plain string) bool {
	return utils.ComparePassword(hashed, plain) == nil
}

func Login(ctx context.Context, name string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+name, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("name = ?", name).Take(&user).Error

		if err != nil {
			return nil, errors.New("invalid name or password")
		}
		if err := config.SetRedisObject("User:"+name, user, time.Hour); err != nil {
			return nil, err
		}
	}

	// check login credentials
	if !credentialsValid(user.Password, password) {
		return nil, errors.New("invalid name or password")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	result.Token = token
	result.ID = user.ID
	result.Name = user.Name
	result.Role = user.Role

	tokenLifespan := utils.TokenHourLifespan()

	// add new token to the user's tokens set
	if err := config.AddRedisSet("Tokens:"+user.Name, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token, user.Name, time.Duration(tokenLifespan)*time.Hour); err != nil {
		return nil, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	// remove current token from tokens list
	name, ok := utils.GetUserNameFromContext(ctx)
	if !ok || name == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+name, token); err != nil {
		return false, err
	}
	return true, nil
}

func (user *User) DestroyAllSessions(ctx context.Context) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + user.Name)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return err
		}
	}
	return config.RemoveRedisKey("Tokens:" + user.Name)
}

/* role policy */

// canCreateRole says whether actor may create a user with the given role.
// Super admins manage managers; managers manage their generator admins.
// Nobody creates a peer of their own role.
func canCreateRole(actor UserRole, newRole UserRole) error {
	if actor == UserRoleSuperAdmin && newRole == UserRoleAdmin {
		return errors.New("creating generator admins is the manager's job")
	}
	if actor == newRole {
		return errors.New("cannot create a user with your own role")
	}
	return nil
}

// canChangeRole says whether actor may move target to newRole.
func canChangeRole(actor UserRole, actorId int, target *User, newRole UserRole) error {
	if actor == UserRoleSuperAdmin && newRole == UserRoleAdmin {
		return errors.New("assigning the generator admin role is the manager's job")
	}
	if actor == newRole {
		return errors.New("cannot assign a user your own role")
	}
	if target.Role == UserRoleManager && actor != UserRoleSuperAdmin {
		return errors.New("only the super admin can change a manager's role")
	}
	if target.Role == UserRoleAdmin && actor == UserRoleManager {
		if target.ManagerId == nil || *target.ManagerId != actorId {
			return errors.New("only the admin's own manager can change their role")
		}
	}
	return nil
}

// canDeleteUser says whether actor may delete target. hasAdmins reports
// whether target (a manager) still has generator admins assigned.
func canDeleteUser(actor UserRole, actorId int, target *User, hasAdmins bool) error {
	if actorId == target.ID {
		return errors.New("cannot delete yourself")
	}
	if actor == UserRoleSuperAdmin && target.Role == UserRoleAdmin {
		return errors.New("deleting generator admins is the manager's job")
	}
	if target.Role == UserRoleManager && hasAdmins {
		return errors.New("cannot delete a manager who still has admins assigned")
	}
	return nil
}

/* CRUD */

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	actorId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || actorId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	actorRole, ok := utils.GetUserRoleFromContext(ctx)
	if !ok {
		return nil, utils.ErrorUnauthorized
	}

	input.Role = UserRole(strings.ToLower(strings.TrimSpace(string(input.Role))))
	if !input.Role.IsValid() {
		return nil, errors.New("invalid role")
	}
	if err := canCreateRole(UserRole(actorRole), input.Role); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[User](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:      html.EscapeString(strings.TrimSpace(input.Name)),
		Password:  string(hashedPassword),
		Role:      input.Role,
		ManagerId: &actorId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}

// GetAllUsers lists users visible to the caller. Managers see their own
// admins plus themselves; everyone else sees all users.
func GetAllUsers(ctx context.Context) ([]*User, error) {

	actorId, _ := utils.GetUserIdFromContext(ctx)
	actorRole, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&User{})
	if UserRole(actorRole) == UserRoleManager {
		dbCtx = dbCtx.Where("manager_id = ? OR id = ?", actorId, actorId)
	}

	var results []*User
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	for _, u := range results {
		u.PrepareGive()
	}
	return results, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	actorId, _ := utils.GetUserIdFromContext(ctx)
	actorRole, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if UserRole(actorRole) == UserRoleManager {
		dbCtx = dbCtx.Where("manager_id = ? OR id = ?", actorId, actorId)
	}

	var result User
	if err := dbCtx.First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	result.PrepareGive()
	return &result, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {

	actorId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || actorId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	actorRole, _ := utils.GetUserRoleFromContext(ctx)

	target, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil && *input.Name != "" {
		if err := utils.ValidateUnique[User](ctx, "name", *input.Name, id); err != nil {
			return nil, err
		}
		updates["name"] = html.EscapeString(strings.TrimSpace(*input.Name))
	}
	if input.Role != nil {
		newRole := UserRole(strings.ToLower(strings.TrimSpace(string(*input.Role))))
		if !newRole.IsValid() {
			return nil, errors.New("invalid role")
		}
		if err := canChangeRole(UserRole(actorRole), actorId, target, newRole); err != nil {
			return nil, err
		}
		updates["role"] = newRole
	}
	if len(updates) == 0 {
		return target, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := target.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	target.PrepareGive()
	return target, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {

	actorId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || actorId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	actorRole, _ := utils.GetUserRoleFromContext(ctx)

	target, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	hasAdmins := false
	if target.Role == UserRoleManager {
		count, err := utils.ResourceCountWhere[User](ctx, "manager_id = ?", target.ID)
		if err != nil {
			return nil, err
		}
		hasAdmins = count > 0
	}
	if err := canDeleteUser(UserRole(actorRole), actorId, target, hasAdmins); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(target).Error; err != nil {
		return nil, err
	}
	if err := target.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	if err := target.DestroyAllSessions(ctx); err != nil {
		return nil, err
	}
	target.PrepareGive()
	return target, nil
}

// ResetPassword sets a user's password, falling back to the default when
// none is given, and kills every live session of that user.
func ResetPassword(ctx context.Context, id int, newPassword string) (*User, error) {

	if newPassword == "" {
		newPassword = DefaultResetPassword
	}
	if len(newPassword) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

func ChangePassword(ctx context.Context, currentPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	// check currentPassword
	if err := utils.ComparePassword(user.Password, currentPassword); err != nil {
		return nil, errors.New("current password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}
	// destroying all session tokens
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}
