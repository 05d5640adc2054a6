package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

const collectionAccounts = "accounts"

// AccountRepository stores accounts with the login as the document _id, so
// MongoDB's primary key index rejects duplicate logins atomically.
type AccountRepository struct {
	col *mongo.Collection
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDoc struct {
	Login     string   `bson:"_id"`
	Password  string   `bson:"password"`
	FirstName string   `bson:"first_name"`
	LastName  string   `bson:"last_name"`
	Roles     []string `bson:"roles"`
}

func toDoc(a *domain.Account) accountDoc {
	return accountDoc{
		Login:     a.Login,
		Password:  a.PasswordDigest,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Roles:     a.Roles.Slice(),
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		Login:          d.Login,
		PasswordDigest: d.Password,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Roles:          domain.NewRoleSet(d.Roles...),
	}
}

// Find retrieves an account by login.
func (r *AccountRepository) Find(ctx context.Context, login string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := findError(r.col.FindOne(ctx, bson.M{"_id": login}).Decode(&doc)); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Exists(ctx context.Context, login string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": login}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count account: %w", err)
	}
	return n > 0, nil
}

// Create inserts a new account document. A duplicate _id surfaces as
// domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(a)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, insertError(err)
	}
	return doc.toDomain(), nil
}

// Save replaces the whole document in a single write.
func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(a)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.Login}, doc)
	if err := replaceError(res, err); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Delete(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": a.Login})
	return deleteError(res, err)
}

// The helpers below translate driver results into the repository contract.

func findError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrAccountNotFound
	default:
		return fmt.Errorf("find account: %w", err)
	}
}

func insertError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAccountExists
	}
	return fmt.Errorf("insert account: %w", err)
}

func replaceError(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return fmt.Errorf("replace account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func deleteError(res *mongo.DeleteResult, err error) error {
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
