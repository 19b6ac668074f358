package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "manager")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	validated, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !validated.Valid {
		t.Fatal("token should be valid")
	}
	claims, ok := validated.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("claims have type %T, want *JwtCustomClaim", validated.Claims)
	}
	if claims.ID != 42 {
		t.Errorf("claims.ID = %d, want 42", claims.ID)
	}
	if claims.Role != "manager" {
		t.Errorf("claims.Role = %q, want manager", claims.Role)
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Error("garbage token should fail validation")
	}
}

func TestTokenHourLifespanDefault(t *testing.T) {
	t.Setenv("TOKEN_HOUR_LIFESPAN", "")
	if got := TokenHourLifespan(); got != 24 {
		t.Errorf("TokenHourLifespan() = %d, want 24", got)
	}
	t.Setenv("TOKEN_HOUR_LIFESPAN", "6")
	if got := TokenHourLifespan(); got != 6 {
		t.Errorf("TokenHourLifespan() = %d, want 6", got)
	}
	t.Setenv("TOKEN_HOUR_LIFESPAN", "-3")
	if got := TokenHourLifespan(); got != 24 {
		t.Errorf("TokenHourLifespan() with negative env = %d, want 24", got)
	}
}
