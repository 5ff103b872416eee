// internal/lobby/codes.go
package lobby

import (
	"errors"
	"math/rand"

	"github.com/quickfire-games/mathrush/internal/models"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 4

	// codeMaxAttempts bounds the retry-until-unique loop. With 456,976
	// possible codes this only trips when the registry is near full.
	codeMaxAttempts = 100
)

// ErrNoFreeCode is returned when a unique code could not be drawn
// within the attempt budget.
var ErrNoFreeCode = errors.New("could not allocate a unique lobby code")

func randomCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(buf)
}

// createWithUniqueCode draws 4-letter codes until Store.Create accepts
// one, so uniqueness is checked atomically against the live registry.
func (c *Coordinator) createWithUniqueCode(host *models.Player) (*models.Lobby, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		lob := models.NewLobby(randomCode(), host)
		if c.store.Create(lob) {
			return lob, nil
		}
	}
	return nil, ErrNoFreeCode
}
