package usecase

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/shipment-tracker/internal/domain"
)

// Authenticate — проверка логина по справочнику пользователей.
// Токены и сессии не выдаются: это заглушка входа.
type Authenticate struct {
	Catalog domain.Catalog
}

func (uc Authenticate) Execute(username, password string) bool {
	if username == "" {
		return false
	}
	u, ok := uc.Catalog.UserByName(username)
	if !ok {
		return false
	}
	if strings.HasPrefix(u.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}
