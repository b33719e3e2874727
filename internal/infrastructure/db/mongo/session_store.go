package mongo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

const (
	sessionsCollection = "sessions"
	tokensCollection   = "single_use_tokens"

	// singleUseTokenBytes is the entropy of a reset/verification token; the
	// stored value is its hex encoding (64 characters).
	singleUseTokenBytes = 32
)

// SessionStore persists refresh-token sessions and single-use tokens. Both
// collections key documents by the token value itself, so uniqueness is
// enforced by the _id index and consume can be a single findAndModify.
type SessionStore struct {
	sessions *mongo.Collection
	tokens   *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{
		sessions: db.Collection(sessionsCollection),
		tokens:   db.Collection(tokensCollection),
	}
}

type sessionDoc struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type singleUseTokenDoc struct {
	Token     string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	UserID    string    `bson:"user_id"`
	Email     string    `bson:"email,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	Used      bool      `bson:"used"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *SessionStore) CreateSession(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error {
	doc := sessionDoc{
		Token:     refreshToken,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.sessions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return storageErr("insert session", err)
	}
	return nil
}

func (s *SessionStore) FindSessionByToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, bson.M{"_id": refreshToken}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvalidSession
		}
		return nil, storageErr("find session", err)
	}
	return &domain.Session{
		Token:     doc.Token,
		UserID:    doc.UserID,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// DeleteSession is idempotent: deleting an unknown token succeeds.
func (s *SessionStore) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"_id": refreshToken}); err != nil {
		return storageErr("delete session", err)
	}
	return nil
}

func (s *SessionStore) DeleteAllSessionsForUser(ctx context.Context, userID string) error {
	if _, err := s.sessions.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return storageErr("delete sessions for user", err)
	}
	return nil
}

func (s *SessionStore) CreateSingleUseToken(ctx context.Context, kind domain.TokenKind, userID, email string, ttl time.Duration) (string, error) {
	buf := make([]byte, singleUseTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	tok := hex.EncodeToString(buf)

	now := time.Now().UTC()
	doc := singleUseTokenDoc{
		Token:     tok,
		Kind:      string(kind),
		UserID:    userID,
		Email:     email,
		ExpiresAt: now.Add(ttl),
		Used:      false,
		CreatedAt: now,
	}
	if _, err := s.tokens.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrConflict
		}
		return "", storageErr("insert single-use token", err)
	}
	return tok, nil
}

// ConsumeSingleUseToken flips used=false to used=true in one findAndModify.
// The filter carries the unused and unexpired conditions, so under N
// concurrent redeem attempts exactly one sees the pre-update document;
// everyone else gets ErrNoDocuments and reports the token invalid.
func (s *SessionStore) ConsumeSingleUseToken(ctx context.Context, kind domain.TokenKind, token string) (*domain.SingleUseToken, error) {
	filter := bson.M{
		"_id":        token,
		"kind":       string(kind),
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"used": true}}

	var doc singleUseTokenDoc
	err := s.tokens.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenInvalid
		}
		return nil, storageErr("consume single-use token", err)
	}

	return &domain.SingleUseToken{
		Token:     doc.Token,
		Kind:      domain.TokenKind(doc.Kind),
		UserID:    doc.UserID,
		Email:     doc.Email,
		ExpiresAt: doc.ExpiresAt,
		Used:      doc.Used,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// EnsureIndexes creates the unique email index plus TTL indexes that expire
// dead sessions and tokens server-side. Call once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	ttl := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := db.Collection(sessionsCollection).Indexes().CreateOne(ctx, ttl); err != nil {
		return fmt.Errorf("sessions ttl index: %w", err)
	}
	if _, err := db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("sessions user index: %w", err)
	}
	if _, err := db.Collection(tokensCollection).Indexes().CreateOne(ctx, ttl); err != nil {
		return fmt.Errorf("tokens ttl index: %w", err)
	}
	return nil
}
