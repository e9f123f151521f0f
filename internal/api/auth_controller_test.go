package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	ac := NewAuthController(nil, "test-secret")

	token := ac.generateToken("admin-1")
	assert.True(t, ac.validateToken(token))
}

func TestTokenRejectsTamperedSignature(t *testing.T) {
	ac := NewAuthController(nil, "test-secret")

	token := ac.generateToken("admin-1")
	assert.False(t, ac.validateToken(token+"ff"))
	assert.False(t, ac.validateToken("garbage"))
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	ac := NewAuthController(nil, "test-secret")
	other := NewAuthController(nil, "other-secret")

	assert.False(t, other.validateToken(ac.generateToken("admin-1")))
}

func TestTokenExpires(t *testing.T) {
	ac := NewAuthController(nil, "test-secret")

	// Собираем токен с меткой выдачи старше срока жизни
	stale := time.Now().UTC().Add(-tokenTTL - time.Minute)
	payload := "admin-1." + stale.Format("20060102150405")
	token := payload + "." + ac.sign(payload)

	assert.False(t, ac.validateToken(token), "просроченный токен не проходит проверку")

	// Свежая метка с той же подписью проходит
	fresh := "admin-1." + time.Now().UTC().Format("20060102150405")
	assert.True(t, ac.validateToken(fresh+"."+ac.sign(fresh)))
}
