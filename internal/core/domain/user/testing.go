package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeIDGenerator struct {
	IDs  []ID
	next int
	lock sync.Mutex
}

func NewFakeIDGenerator(ids ...ID) *FakeIDGenerator {
	return &FakeIDGenerator{IDs: ids}
}

// GenerateID returns the configured IDs in order and then sequential ones.
func (g *FakeIDGenerator) GenerateID() ID {
	g.lock.Lock()
	defer g.lock.Unlock()
	defer func() { g.next++ }()
	if g.next < len(g.IDs) {
		return g.IDs[g.next]
	}
	return ID(fmt.Sprintf("user-%d", g.next+1))
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	Locked      []ID
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
	}
	u = User{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) Lock(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			r.Locked = append(r.Locked, id)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash, at time.Time) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			r.Users[ix].UpdatedAt = at
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) Update(ctx context.Context, input UpdateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update user %v", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == input.ID {
			if input.Name.IsPresent {
				r.Users[ix].Name = input.Name.Value
			}
			if input.Photo.IsPresent {
				r.Users[ix].Photo = input.Photo
			}
			if input.Phone.IsPresent {
				r.Users[ix].Phone = input.Phone
			}
			if input.Bio.IsPresent {
				r.Users[ix].Bio = input.Bio
			}
			r.Users[ix].UpdatedAt = input.UpdatedAt
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

type FakeResetTokenRepository struct {
	Tokens      map[ID]ResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetTokenRepository() *FakeResetTokenRepository {
	return &FakeResetTokenRepository{Tokens: make(map[ID]ResetToken)}
}

func (r *FakeResetTokenRepository) GetByUserID(ctx context.Context, userID ID) (t ResetToken, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	t, ok := r.Tokens[userID]
	if !ok {
		return t, ErrResetTokenDoesNotExist
	}
	return t, nil
}

func (r *FakeResetTokenRepository) DeleteForUser(ctx context.Context, userID ID) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete reset token for user %v", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.Tokens, userID)
	return nil
}

func (r *FakeResetTokenRepository) Create(ctx context.Context, input CreateResetTokenInput) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not create reset token for user %v", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.Tokens[input.UserID]; ok {
		return t, fmt.Errorf("reset token for user %v already exists", input.UserID)
	}
	t = ResetToken{
		UserID:    input.UserID,
		TokenHash: input.TokenHash,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}
	r.Tokens[input.UserID] = t
	return t, nil
}

func (r *FakeResetTokenRepository) Consume(
	ctx context.Context,
	hash PasswordResetTokenHash,
	at time.Time,
) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not consume reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for userID, t := range r.Tokens {
		if t.TokenHash == hash && t.IsLive(at) {
			delete(r.Tokens, userID)
			return t, nil
		}
	}
	return t, ErrInvalidPasswordResetToken
}

func (r *FakeResetTokenRepository) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete expired reset tokens")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	var deleted int64
	for userID, t := range r.Tokens {
		if !t.IsLive(at) {
			delete(r.Tokens, userID)
			deleted++
		}
	}
	return deleted, nil
}

// LiveCount returns the number of tokens stored for the user that are live at the given moment.
func (r *FakeResetTokenRepository) LiveCount(userID ID, at time.Time) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for id, t := range r.Tokens {
		if id == userID && t.IsLive(at) {
			count++
		}
	}
	return count
}

// FakePasswordResetter issues "<prefix>-<n><userID>" tokens and hashes them with SHA-256.
type FakePasswordResetter struct {
	Prefix      string
	ReturnError bool
	issued      int
	lock        sync.Mutex
}

func NewFakePasswordResetter(prefix string) *FakePasswordResetter {
	return &FakePasswordResetter{Prefix: prefix}
}

func (r *FakePasswordResetter) GenerateToken(u User) (PasswordResetToken, error) {
	if r.ReturnError {
		return "", fmt.Errorf("could not generate password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.issued++
	return PasswordResetToken(fmt.Sprintf("%s-%d%s", r.Prefix, r.issued, u.ID)), nil
}

func (r *FakePasswordResetter) HashToken(token PasswordResetToken) PasswordResetTokenHash {
	return PasswordResetTokenHash(fmt.Sprintf("%x", sha256.Sum256([]byte(token))))
}

type FakeSessionTokenIssuer struct {
	TTL    time.Duration
	Now    func() time.Time
	issued map[SessionToken]Session
	count  int
	lock   sync.Mutex
}

func NewFakeSessionTokenIssuer(ttl time.Duration, now func() time.Time) *FakeSessionTokenIssuer {
	return &FakeSessionTokenIssuer{TTL: ttl, Now: now, issued: make(map[SessionToken]Session)}
}

func (i *FakeSessionTokenIssuer) IssueToken(u User) (Session, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.count++
	now := i.Now()
	s := Session{
		Token:     SessionToken(fmt.Sprintf("session-%d-%s", i.count, u.ID)),
		TokenID:   fmt.Sprintf("jti-%d", i.count),
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.TTL),
	}
	i.issued[s.Token] = s
	return s, nil
}

func (i *FakeSessionTokenIssuer) ParseToken(token SessionToken) (s Session, err error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	s, ok := i.issued[token]
	if !ok || !i.Now().Before(s.ExpiresAt) {
		return s, ErrInvalidSessionToken
	}
	return s, nil
}

type FakeSessionRevoker struct {
	Revoked     map[string]Session
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeSessionRevoker() *FakeSessionRevoker {
	return &FakeSessionRevoker{Revoked: make(map[string]Session)}
}

func (r *FakeSessionRevoker) Revoke(ctx context.Context, s Session) error {
	if r.ReturnError {
		return fmt.Errorf("could not revoke session %v", s.TokenID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Revoked[s.TokenID] = s
	return nil
}

func (r *FakeSessionRevoker) IsRevoked(ctx context.Context, s Session) (bool, error) {
	if r.ReturnError {
		return false, fmt.Errorf("could not check session %v", s.TokenID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.Revoked[s.TokenID]
	return ok, nil
}
