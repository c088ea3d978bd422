package memory

import (
	"testing"

	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/repository/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *store.Repositories { return Open() })
}
