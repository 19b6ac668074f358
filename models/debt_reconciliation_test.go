package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/models"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
)

// Exercises the full repayment round-trip against a real MySQL and Redis:
// booking debts moves the ampere bill's paid balance and status, amending
// a debt applies the difference, deleting a debt reverts it, and the paid
// balance never exceeds the total.
func TestDebtReconciliationRoundTrip(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "generator_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	manager := models.User{Name: "test manager", Password: "x", Role: models.UserRoleManager}
	if err := db.Create(&manager).Error; err != nil {
		t.Fatalf("create manager: %v", err)
	}
	admin := models.User{Name: "test admin", Password: "x", Role: models.UserRoleAdmin, ManagerId: &manager.ID}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	managerCtx := utils.SetUserIdInContext(ctx, manager.ID)
	managerCtx = utils.SetUserRoleInContext(managerCtx, string(models.UserRoleManager))
	adminCtx := utils.SetUserIdInContext(ctx, admin.ID)
	adminCtx = utils.SetUserRoleInContext(adminCtx, string(models.UserRoleAdmin))

	_, err := models.CreateGenerator(managerCtx, &models.NewGenerator{
		Name:     "North Station",
		AdminId:  admin.ID,
		Location: "north district",
		Ampere:   decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("CreateGenerator: %v", err)
	}

	ampere, err := models.CreateAmpere(adminCtx, &models.NewAmpere{
		Date:        models.NewDateOnly(2026, time.March, 1),
		TotalHours:  300,
		HourlyPrice: decimal.NewFromInt(10),
		Final:       decimal.NewFromInt(3000),
		Total:       decimal.NewFromInt(1000),
		Paid:        decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("CreateAmpere: %v", err)
	}
	if ampere.Status != models.BillableStatusLoan {
		t.Fatalf("status = %q, want loan", ampere.Status)
	}

	dueDate := models.NewDateOnly(2026, time.April, 1)

	// First repayment: 200 + 300 = 500 paid, still a loan.
	first, err := models.CreateDebt(adminCtx, &models.NewDebt{
		AmpereId: &ampere.ID,
		Paid:     decimal.NewFromInt(300),
		DueDate:  dueDate,
	})
	if err != nil {
		t.Fatalf("CreateDebt(300): %v", err)
	}
	if first.Ampere == nil {
		t.Fatal("created debt should come back with its ampere bill loaded")
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 500, models.BillableStatusLoan)

	// Exceeding the remaining 500 must be rejected and change nothing.
	_, err = models.CreateDebt(adminCtx, &models.NewDebt{
		AmpereId: &ampere.ID,
		Paid:     decimal.NewFromInt(600),
		DueDate:  dueDate,
	})
	if err == nil {
		t.Fatal("CreateDebt(600) on a remaining balance of 500 should fail")
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 500, models.BillableStatusLoan)

	// Settling the remainder flips the bill to paid.
	second, err := models.CreateDebt(adminCtx, &models.NewDebt{
		AmpereId: &ampere.ID,
		Paid:     decimal.NewFromInt(500),
		DueDate:  dueDate,
	})
	if err != nil {
		t.Fatalf("CreateDebt(500): %v", err)
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 1000, models.BillableStatusPaid)

	// Shrinking the second repayment reverts the difference.
	smaller := decimal.NewFromInt(200)
	amended, err := models.UpdateDebt(adminCtx, second.ID, &models.UpdateDebtInput{Paid: &smaller})
	if err != nil {
		t.Fatalf("UpdateDebt(500 -> 200): %v", err)
	}
	if amended.Ampere == nil {
		t.Fatal("amended debt should come back with its ampere bill loaded")
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 700, models.BillableStatusLoan)

	// Growing it past the remaining balance must be rejected.
	tooBig := decimal.NewFromInt(600)
	_, err = models.UpdateDebt(adminCtx, second.ID, &models.UpdateDebtInput{Paid: &tooBig})
	if err == nil {
		t.Fatal("UpdateDebt(200 -> 600) past the total should fail")
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 700, models.BillableStatusLoan)

	// Deleting the first repayment gives its amount back.
	if _, err := models.DeleteDebt(adminCtx, first.ID); err != nil {
		t.Fatalf("DeleteDebt: %v", err)
	}
	assertAmpereBalance(t, adminCtx, ampere.ID, 400, models.BillableStatusLoan)

	// The repayment history of the bill only holds the surviving debt.
	details, err := models.ListDebts(adminCtx, &models.DebtFilter{AmpereId: &ampere.ID})
	if err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("ListDebts returned %d rows, want 1", len(details))
	}
	if !details[0].Remaining.Equal(decimal.NewFromInt(600)) {
		t.Errorf("remaining = %s, want 600", details[0].Remaining)
	}

	// Conservation: the surviving debts account for every paid unit beyond
	// the 200 the bill was created with.
	var debtSum decimal.Decimal
	for _, row := range details {
		debtSum = debtSum.Add(row.Paid)
	}
	settled, err := models.GetAmpere(adminCtx, ampere.ID)
	if err != nil {
		t.Fatalf("GetAmpere: %v", err)
	}
	if !settled.Paid.Sub(debtSum).Equal(decimal.NewFromInt(200)) {
		t.Errorf("paid %s minus booked debts %s, want the opening balance 200", settled.Paid, debtSum)
	}

	// Two concurrent repayments both asking for the full remaining balance:
	// the row lock must let exactly one through.
	contested, err := models.CreateAmpere(adminCtx, &models.NewAmpere{
		Date:        models.NewDateOnly(2026, time.March, 2),
		TotalHours:  100,
		HourlyPrice: decimal.NewFromInt(5),
		Final:       decimal.NewFromInt(500),
		Total:       decimal.NewFromInt(500),
		Paid:        decimal.Zero,
	})
	if err != nil {
		t.Fatalf("CreateAmpere(contested): %v", err)
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := models.CreateDebt(adminCtx, &models.NewDebt{
				AmpereId: &contested.ID,
				Paid:     decimal.NewFromInt(500),
				DueDate:  dueDate,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var failures int
	for err := range errCh {
		if err != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("concurrent CreateDebt: %d failures, want exactly 1", failures)
	}
	assertAmpereBalance(t, adminCtx, contested.ID, 500, models.BillableStatusPaid)
}

func assertAmpereBalance(t *testing.T, ctx context.Context, id int, paid int64, status models.BillableStatus) {
	t.Helper()
	detail, err := models.GetAmpere(ctx, id)
	if err != nil {
		t.Fatalf("GetAmpere(%d): %v", id, err)
	}
	if !detail.Paid.Equal(decimal.NewFromInt(paid)) {
		t.Fatalf("paid = %s, want %d", detail.Paid, paid)
	}
	if detail.Status != status {
		t.Fatalf("status = %q, want %q", detail.Status, status)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("generator-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("generator-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=generator_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
