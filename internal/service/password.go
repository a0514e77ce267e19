package service

import (
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher aplica bcrypt con sal aleatoria por llamada.
// Las llamadas pasan por un cupo de workers acotado a GOMAXPROCS
// para que una ráfaga de registros no acapare el scheduler.
type PasswordHasher struct {
	cost  int
	slots chan struct{}
}

func NewPasswordHasher() *PasswordHasher {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return &PasswordHasher{
		cost:  bcrypt.DefaultCost,
		slots: make(chan struct{}, n),
	}
}

// Hash produce un digest bcrypt. Dos llamadas con el mismo
// plaintext producen digests distintos por la sal embebida.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	h.slots <- struct{}{}
	defer func() { <-h.slots }()

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify recomputa con la sal embebida en el digest y compara.
// Un digest malformado devuelve false, nunca un error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	h.slots <- struct{}{}
	defer func() { <-h.slots }()

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
