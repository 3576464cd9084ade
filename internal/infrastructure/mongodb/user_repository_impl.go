package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
)

const (
	usersCollection = "users"
	indexEmail      = "users_email_key"
	indexMobile     = "users_mobile_key"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

// EnsureIndexes creates the unique email and mobile indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmail)},
		{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexMobile)},
	})
	if err != nil {
		return oops.Code("USER_INDEXES_FAILED").With("collection", usersCollection).Wrap(err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := r.coll.InsertOne(ctx, fromEntity(u))
	if err != nil {
		if dup := duplicateOf(err); dup != nil {
			return oops.Code("USER_DUPLICATE").With("email", u.Email).Wrap(dup)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("email", u.Email).
			Wrap(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id.Hex()
	}
	return nil
}

const duplicateKeyCode = 11000

// duplicateOf maps a duplicate key write error to the sentinel for the violated index.
func duplicateOf(err error) error {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return nil
	}
	for _, e := range we.WriteErrors {
		if e.Code != duplicateKeyCode {
			continue
		}
		if violatesMobile(e) {
			return repository.ErrDuplicateMobile
		}
		return repository.ErrDuplicateEmail
	}
	return nil
}

// violatesMobile reads the server's keyPattern; servers that omit it still
// name the index in the write error message.
func violatesMobile(e mongo.WriteError) bool {
	if _, err := e.Raw.LookupErr("keyPattern", "mobile"); err == nil {
		return true
	}
	return strings.Contains(e.Message, "index: "+indexMobile+" ")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, field, value string) (*entity.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, oops.Code("USER_NOT_FOUND").With(field, value).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "find user").
			With(field, value).
			Wrap(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.set(ctx, id, "password_hash", passwordHash)
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id, url string) error {
	return r.set(ctx, id, "profile_image", url)
}

func (r *UserRepository) set(ctx context.Context, id, field string, value any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value, "updated_at": r.now().UTC()}})
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update "+field).
			With("id", id).
			Wrap(err)
	}
	if res.MatchedCount == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
