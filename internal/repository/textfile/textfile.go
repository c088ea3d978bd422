package textfile

import (
	"log/slog"
	"path/filepath"

	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

// File names inside the data directory
const (
	ProductsFile       = "products.txt"
	UsersFile          = "users.txt"
	CartsFile          = "carts.txt"
	QuestionnairesFile = "questionnaires.txt"
)

// Open returns a repository set backed by text files in dir
func Open(dir string, logger *slog.Logger) *store.Repositories {
	return store.New(store.Backends{
		Products:       NewFile(filepath.Join(dir, ProductsFile), productCodec, logger),
		Users:          NewFile(filepath.Join(dir, UsersFile), userCodec, logger),
		Carts:          NewFile(filepath.Join(dir, CartsFile), cartCodec, logger),
		CartSequence:   store.NewFileSequence(filepath.Join(dir, CartsFile+".seq")),
		Questionnaires: NewFile(filepath.Join(dir, QuestionnairesFile), questionnaireCodec, logger),
	})
}
