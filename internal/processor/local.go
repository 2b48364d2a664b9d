package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LocalTokenizer stands in for the card processor when it is not configured
// (local runs, tests). Tokens it issues are opaque and unusable for charging.
type LocalTokenizer struct{}

func NewLocalTokenizer() *LocalTokenizer {
	return &LocalTokenizer{}
}

func (LocalTokenizer) Tokenize(ctx context.Context, card Card) (*TokenizedCard, error) {
	digits := strings.ReplaceAll(card.Number, " ", "")
	if len(digits) < 12 {
		return nil, fmt.Errorf("card number too short")
	}

	brand := "unknown"
	switch digits[0] {
	case '3':
		brand = "amex"
	case '4':
		brand = "visa"
	case '5':
		brand = "mastercard"
	}

	return &TokenizedCard{
		Token:    "local_" + uuid.NewString(),
		Brand:    brand,
		Last4:    digits[len(digits)-4:],
		ExpMonth: card.ExpMonth,
		ExpYear:  card.ExpYear,
	}, nil
}
