// Package impl contains the implementation of the application's business
// logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	deliverycontext "pepre/internal/delivery/context"
	"pepre/internal/domain/entity"
	domainerrors "pepre/internal/domain/errors"
	"pepre/internal/domain/repository"
	"pepre/internal/domain/service"
	"pepre/internal/errors"
	"pepre/internal/usecase"
)

// registryService implements the Registry interface for one entity type.
//
// The uniqueness check and the ID assignment are both query-then-write
// against the document store, with no transaction or store-level constraint
// in between. Concurrent registrations can therefore collide on identity or
// ID; the service is written for single-writer load and keeps the original
// contract rather than inventing stronger guarantees the store never gave.
type registryService struct {
	typ       entity.Type
	store     repository.DocumentStore
	hasher    service.PasswordHasher
	idgen     service.IDGenerator
	passwords service.InitialPasswordPolicy
	logger    *slog.Logger
}

// RegistryParams holds dependencies for the registry service, injected by Fx.
type RegistryParams struct {
	fx.In

	Type      entity.Type
	Store     repository.DocumentStore
	Hasher    service.PasswordHasher
	IDGen     service.IDGenerator
	Passwords service.InitialPasswordPolicy
	Logger    *slog.Logger
}

// NewRegistryService is the constructor for registryService. It receives all
// dependencies as interfaces.
func NewRegistryService(params RegistryParams) usecase.Registry {
	return &registryService{
		typ:       params.Type,
		store:     params.Store,
		hasher:    params.Hasher,
		idgen:     params.IDGen,
		passwords: params.Passwords,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to
// the service's logger.
func (srv *registryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new record: required-field validation, identity
// uniqueness scan, sequential ID, credential assignment, timestamps, write.
func (srv *registryService) Register(ctx context.Context, fields entity.Document) (entity.Document, error) {
	if len(fields) == 0 {
		return nil, domainerrors.ErrInvalidInput.WithMessage("No data provided")
	}

	if missing := srv.missingRequiredFields(fields); len(missing) > 0 {
		return nil, domainerrors.ErrInvalidInput.WithMessage(
			"Missing required fields: " + strings.Join(missing, ", "))
	}

	identity := fields.StringField(srv.typ.IdentityField)
	existing, err := srv.store.FindByField(ctx, srv.typ.Collection, srv.typ.IdentityField, identity)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existing %s by %s", srv.typ.Name, srv.typ.IdentityField)
	}
	if len(existing) > 0 {
		return nil, domainerrors.ErrConflict.WithMessage(
			fmt.Sprintf("%s with this email already exists", srv.typ.Title()))
	}

	id := srv.idgen.NextID(ctx, srv.typ)

	doc := entity.Document{entity.FieldID: id}
	for _, f := range srv.typ.RequiredFields {
		if f != entity.FieldPassword {
			doc[f] = fields[f]
		}
	}
	for _, f := range srv.typ.OptionalFields {
		if v, ok := fields[f]; ok {
			doc[f] = v
		}
	}

	assignedPassword, err := srv.assignCredentials(doc, fields)
	if err != nil {
		return nil, err
	}

	now := entity.Now()
	doc[entity.FieldCreatedAt] = now
	doc[entity.FieldUpdatedAt] = now
	if srv.typ.Credentials != entity.CredentialsNone {
		doc[entity.FieldLastLogin] = nil
	}

	if err := srv.store.Set(ctx, srv.typ.Collection, id, doc); err != nil {
		return nil, errors.Wrapf(err, "failed to persist new %s", srv.typ.Name)
	}

	srv.log(ctx).Info("Registered new record",
		slog.String("entityType", srv.typ.Name),
		slog.String("id", id),
	)

	out := doc.Sanitized()
	if assignedPassword != "" {
		// The policy-assigned plaintext is echoed exactly once, in this
		// response, so the caller can hand it to the new account holder.
		out[entity.FieldPassword] = assignedPassword
	}

	return out, nil
}

// missingRequiredFields reports the required fields absent or empty in the
// input, in declaration order.
func (srv *registryService) missingRequiredFields(fields entity.Document) []string {
	var missing []string
	for _, f := range srv.typ.RequiredFields {
		if fields.IsEmptyField(f) {
			missing = append(missing, f)
		}
	}

	return missing
}

// assignCredentials hashes the record's initial password onto doc and
// returns the plaintext when the service (not the caller) chose it.
func (srv *registryService) assignCredentials(doc, fields entity.Document) (string, error) {
	switch srv.typ.Credentials {
	case entity.CredentialsFromCaller:
		hash, err := srv.hasher.Hash(fields.StringField(entity.FieldPassword))
		if err != nil {
			return "", errors.Wrap(err, "failed to hash password")
		}
		doc[entity.FieldPassword] = hash

		return "", nil

	case entity.CredentialsFromPolicy:
		plaintext, err := srv.passwords.NewPassword()
		if err != nil {
			return "", errors.Wrap(err, "failed to assign initial password")
		}
		hash, err := srv.hasher.Hash(plaintext)
		if err != nil {
			return "", errors.Wrap(err, "failed to hash password")
		}
		doc[entity.FieldPassword] = hash

		return plaintext, nil

	default:
		return "", nil
	}
}

// Get fetches a single record by ID.
func (srv *registryService) Get(ctx context.Context, id string) (entity.Document, error) {
	if id == "" {
		return nil, domainerrors.ErrInvalidInput.WithMessage(srv.typ.Title() + " ID is required")
	}

	doc, err := srv.store.Get(ctx, srv.typ.Collection, id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, domainerrors.ErrNotFound.WithMessage(srv.typ.Title() + " not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s %s", srv.typ.Name, id)
	}

	return doc.Sanitized(), nil
}

// GetAll lists every record in the collection.
func (srv *registryService) GetAll(ctx context.Context) ([]entity.Document, error) {
	docs, err := srv.store.All(ctx, srv.typ.Collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", srv.typ.Collection)
	}

	return sanitizeAll(docs), nil
}

// Update merges a partial field set onto an existing record.
func (srv *registryService) Update(ctx context.Context, id string, fields entity.Document) (entity.Document, error) {
	if id == "" {
		return nil, domainerrors.ErrInvalidInput.WithMessage(srv.typ.Title() + " ID is required")
	}
	if len(fields) == 0 {
		return nil, domainerrors.ErrInvalidInput.WithMessage("No data provided")
	}

	existing, err := srv.store.Get(ctx, srv.typ.Collection, id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, domainerrors.ErrNotFound.WithMessage(srv.typ.Title() + " not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s %s", srv.typ.Name, id)
	}

	updates := fields.Clone()
	// The primary key is immutable; a caller-supplied id is dropped rather
	// than allowed to corrupt the record.
	delete(updates, entity.FieldID)

	if err := srv.checkIdentityChange(ctx, id, existing, updates); err != nil {
		return nil, err
	}

	assignedPassword, err := srv.applyPasswordUpdate(updates)
	if err != nil {
		return nil, err
	}

	updates[entity.FieldUpdatedAt] = entity.Now()

	if err := srv.store.Merge(ctx, srv.typ.Collection, id, updates); err != nil {
		return nil, errors.Wrapf(err, "failed to update %s %s", srv.typ.Name, id)
	}

	merged, err := srv.store.Get(ctx, srv.typ.Collection, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch updated %s %s", srv.typ.Name, id)
	}

	srv.log(ctx).Info("Updated record",
		slog.String("entityType", srv.typ.Name),
		slog.String("id", id),
	)

	out := merged.Sanitized()
	if assignedPassword != "" {
		out[entity.FieldPassword] = assignedPassword
	}

	return out, nil
}

// checkIdentityChange re-validates identity uniqueness when the update moves
// the identity field to a new value held by a different record.
func (srv *registryService) checkIdentityChange(ctx context.Context, id string, existing, updates entity.Document) error {
	if _, ok := updates[srv.typ.IdentityField]; !ok {
		return nil
	}

	newIdentity := updates.StringField(srv.typ.IdentityField)
	if newIdentity == existing.StringField(srv.typ.IdentityField) {
		return nil
	}

	matches, err := srv.store.FindByField(ctx, srv.typ.Collection, srv.typ.IdentityField, updates[srv.typ.IdentityField])
	if err != nil {
		return errors.Wrapf(err, "failed to check %s uniqueness", srv.typ.IdentityField)
	}
	for _, m := range matches {
		if m.ID() != id {
			return domainerrors.ErrConflict.WithMessage(
				"Email already in use by another " + srv.typ.Name)
		}
	}

	return nil
}

// applyPasswordUpdate resolves the password-rotation branch of an update.
// Reset flag set: assign the policy password and echo the plaintext.
// Literal non-empty password: hash it in place. Empty password: dropped
// silently. The reset flag itself is never persisted.
func (srv *registryService) applyPasswordUpdate(updates entity.Document) (string, error) {
	reset, flagPresent := updates[entity.FieldUpdatePassword]
	if flagPresent {
		delete(updates, entity.FieldUpdatePassword)
	}

	if b, ok := reset.(bool); flagPresent && ok && b {
		plaintext, err := srv.passwords.NewPassword()
		if err != nil {
			return "", errors.Wrap(err, "failed to assign reset password")
		}
		hash, err := srv.hasher.Hash(plaintext)
		if err != nil {
			return "", errors.Wrap(err, "failed to hash reset password")
		}
		updates[entity.FieldPassword] = hash

		return plaintext, nil
	}

	if pw, ok := updates[entity.FieldPassword]; ok {
		plaintext, _ := pw.(string)
		if plaintext == "" {
			delete(updates, entity.FieldPassword)

			return "", nil
		}
		hash, err := srv.hasher.Hash(plaintext)
		if err != nil {
			return "", errors.Wrap(err, "failed to hash password")
		}
		updates[entity.FieldPassword] = hash
	}

	return "", nil
}

// Delete removes a record permanently.
func (srv *registryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domainerrors.ErrInvalidInput.WithMessage(srv.typ.Title() + " ID is required")
	}

	if _, err := srv.store.Get(ctx, srv.typ.Collection, id); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrNotFound.WithMessage(srv.typ.Title() + " not found")
		}

		return errors.Wrapf(err, "failed to fetch %s %s", srv.typ.Name, id)
	}

	if err := srv.store.Delete(ctx, srv.typ.Collection, id); err != nil {
		return errors.Wrapf(err, "failed to delete %s %s", srv.typ.Name, id)
	}

	srv.log(ctx).Info("Deleted record",
		slog.String("entityType", srv.typ.Name),
		slog.String("id", id),
	)

	return nil
}

// Exists reports record presence by primary key.
func (srv *registryService) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domainerrors.ErrInvalidInput.WithMessage(srv.typ.Title() + " ID is required")
	}

	_, err := srv.store.Get(ctx, srv.typ.Collection, id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to verify %s %s", srv.typ.Name, id)
	}

	return true, nil
}

// Search scans the full collection for records whose field contains the
// query, case-insensitively. Result order follows collection iteration
// order and is not guaranteed stable.
func (srv *registryService) Search(ctx context.Context, field, query string) ([]entity.Document, error) {
	if query == "" {
		return nil, domainerrors.ErrInvalidInput.WithMessage("Search query is required")
	}
	if field == "" {
		field = srv.typ.DefaultSearchField
	}

	docs, err := srv.store.All(ctx, srv.typ.Collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search %s", srv.typ.Collection)
	}

	needle := strings.ToLower(query)
	matches := make([]entity.Document, 0)
	for _, doc := range docs {
		if _, ok := doc[field]; !ok {
			continue
		}
		if strings.Contains(strings.ToLower(doc.StringField(field)), needle) {
			matches = append(matches, doc.Sanitized())
		}
	}

	return matches, nil
}

// FilterByField scans the full collection for records whose field equals
// the value, case-insensitively.
func (srv *registryService) FilterByField(ctx context.Context, field, value string) ([]entity.Document, error) {
	if value == "" {
		return nil, domainerrors.ErrInvalidInput.WithMessage(field + " is required")
	}

	docs, err := srv.store.All(ctx, srv.typ.Collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to filter %s", srv.typ.Collection)
	}

	matches := make([]entity.Document, 0)
	for _, doc := range docs {
		if strings.EqualFold(doc.StringField(field), value) {
			matches = append(matches, doc.Sanitized())
		}
	}

	return matches, nil
}

// Login verifies credentials against the identity field. Unknown identity,
// missing or malformed stored hash, and password mismatch all yield the same
// invalid-credentials error so responses do not reveal account existence.
func (srv *registryService) Login(ctx context.Context, fields entity.Document) (entity.Document, error) {
	identity := fields.StringField(srv.typ.IdentityField)
	plaintext := fields.StringField(entity.FieldPassword)
	if identity == "" || plaintext == "" {
		return nil, domainerrors.ErrInvalidInput.WithMessage("Email and password are required")
	}

	matches, err := srv.store.FindByField(ctx, srv.typ.Collection, srv.typ.IdentityField, identity)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up %s by %s", srv.typ.Name, srv.typ.IdentityField)
	}
	if len(matches) == 0 {
		return nil, domainerrors.ErrInvalidCredentials
	}

	doc := matches[0]
	stored := doc.StringField(entity.FieldPassword)
	if !srv.hasher.Check(plaintext, stored) {
		srv.log(ctx).Warn("Login failed",
			slog.String("entityType", srv.typ.Name),
			slog.String("id", doc.ID()),
		)

		return nil, domainerrors.ErrInvalidCredentials
	}

	// lastLogin is best effort: a failed stamp is logged, the login still
	// succeeds.
	now := entity.Now()
	if err := srv.store.Merge(ctx, srv.typ.Collection, doc.ID(), entity.Document{entity.FieldLastLogin: now}); err != nil {
		srv.log(ctx).Warn("Failed to stamp lastLogin",
			slog.String("entityType", srv.typ.Name),
			slog.String("id", doc.ID()),
			slog.Any("error", err),
		)
	} else {
		doc[entity.FieldLastLogin] = now
	}

	srv.log(ctx).Info("Login succeeded",
		slog.String("entityType", srv.typ.Name),
		slog.String("id", doc.ID()),
	)

	return doc.Sanitized(), nil
}

func sanitizeAll(docs []entity.Document) []entity.Document {
	out := make([]entity.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Sanitized())
	}

	return out
}
