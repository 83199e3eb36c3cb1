package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepre/internal/domain/entity"
	domainerrors "pepre/internal/domain/errors"
	"pepre/internal/domain/repository"
	"pepre/internal/infra/auth"
	"pepre/internal/infra/identity"
	"pepre/internal/infra/password"
	"pepre/internal/infra/persistence/memory"
	"pepre/internal/usecase"
)

// registryFixtures holds the service under test plus the real in-memory
// dependencies backing it.
type registryFixtures struct {
	service usecase.Registry
	store   repository.DocumentStore
	typ     entity.Type
}

func createTestRegistry(t *testing.T, typ entity.Type) registryFixtures {
	t.Helper()

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewRegistryService(RegistryParams{
		Type:      typ,
		Store:     store,
		Hasher:    auth.NewBcryptHasherWithCost(4),
		IDGen:     identity.NewSequentialGenerator(store, logger),
		Passwords: password.NewFixedPolicy("admin"),
		Logger:    logger,
	})

	return registryFixtures{service: service, store: store, typ: typ}
}

func validCompany(email string) entity.Document {
	return entity.Document{
		"companyName": "Acme Corp",
		"companySize": "50-100",
		"adminEmail":  email,
		"password":    "s3cret!",
	}
}

func validEmployee(email string) entity.Document {
	return entity.Document{
		"name":               "Jane Doe",
		"dateOfBirth":        "1990-04-12",
		"email":              email,
		"address":            "12 Main St",
		"phoneNumber":        "555-0101",
		"designation":        "Engineer",
		"employeeShiftHours": "9-5",
	}
}

func TestRegister_AssignsSequentialCompanyIDs(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	first, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)
	assert.Equal(t, "PEPRE-1000", first.ID())

	second, err := f.service.Register(ctx, validCompany("b@acme.com"))
	require.NoError(t, err)
	assert.Equal(t, "PEPRE-1001", second.ID())

	assert.NotEmpty(t, first["createdAt"])
	assert.Equal(t, first["createdAt"], first["updatedAt"])
	lastLogin, ok := first["lastLogin"]
	assert.True(t, ok)
	assert.Nil(t, lastLogin)
}

func TestRegister_CallerPasswordIsHashedAndNeverEchoed(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	out, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)
	assert.NotContains(t, out, "password")

	stored, err := f.store.Get(ctx, f.typ.Collection, out.ID())
	require.NoError(t, err)
	hash := stored.StringField("password")
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, auth.NewBcryptHasher().Check("s3cret!", hash))
}

func TestRegister_EmployeeGetsPolicyPassword(t *testing.T) {
	f := createTestRegistry(t, entity.Employee)
	ctx := context.Background()

	out, err := f.service.Register(ctx, validEmployee("jane@corp.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP001", out.ID())

	// The assigned plaintext is echoed once so it can be handed to the
	// employee; the stored value is its hash.
	assert.Equal(t, "admin", out.StringField("password"))

	stored, err := f.store.Get(ctx, f.typ.Collection, out.ID())
	require.NoError(t, err)
	hash := stored.StringField("password")
	assert.NotEqual(t, "admin", hash)
	assert.True(t, auth.NewBcryptHasher().Check("admin", hash))
}

func TestRegister_MissingFieldsAreNamedInOrder(t *testing.T) {
	f := createTestRegistry(t, entity.Company)

	_, err := f.service.Register(context.Background(), entity.Document{
		"companyName": "Acme Corp",
		"adminEmail":  "",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Missing required fields: companySize, adminEmail, password", appErr.Message())
}

func TestRegister_EmptyPayload(t *testing.T) {
	f := createTestRegistry(t, entity.Company)

	_, err := f.service.Register(context.Background(), entity.Document{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestRegister_DuplicateIdentityConflicts(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	_, err = f.service.Register(ctx, validCompany("a@acme.com"))
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestRegister_UnknownFieldsAreDropped(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	input := validCompany("a@acme.com")
	input["industry"] = "logistics"
	input["role"] = "superuser"

	out, err := f.service.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "logistics", out.StringField("industry"))
	assert.NotContains(t, out, "role")

	stored, err := f.store.Get(ctx, f.typ.Collection, out.ID())
	require.NoError(t, err)
	assert.NotContains(t, stored, "role")
}

func TestUpdate_MergesFieldsAndKeepsTheRest(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	out, err := f.service.Update(ctx, created.ID(), entity.Document{
		"companyName": "Acme Holdings",
		"id":          "PEPRE-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", out.StringField("companyName"))
	assert.Equal(t, "50-100", out.StringField("companySize"))
	assert.Equal(t, created.ID(), out.ID())
}

func TestUpdate_NotFound(t *testing.T) {
	f := createTestRegistry(t, entity.Company)

	_, err := f.service.Update(context.Background(), "PEPRE-1000", entity.Document{"companyName": "X"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdate_EmptyFields(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, created.ID(), entity.Document{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUpdate_IdentityMoveToTakenValueConflicts(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)
	second, err := f.service.Register(ctx, validCompany("b@acme.com"))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, second.ID(), entity.Document{"adminEmail": "a@acme.com"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Re-submitting the record's own identity is not a conflict.
	_, err = f.service.Update(ctx, second.ID(), entity.Document{"adminEmail": "b@acme.com"})
	assert.NoError(t, err)
}

func TestUpdate_PasswordResetFlagAssignsPolicyPassword(t *testing.T) {
	f := createTestRegistry(t, entity.Employee)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validEmployee("jane@corp.com"))
	require.NoError(t, err)

	out, err := f.service.Update(ctx, created.ID(), entity.Document{"updatePassword": true})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.StringField("password"))

	stored, err := f.store.Get(ctx, f.typ.Collection, created.ID())
	require.NoError(t, err)
	assert.NotContains(t, stored, "updatePassword")
	assert.True(t, auth.NewBcryptHasher().Check("admin", stored.StringField("password")))
}

func TestUpdate_LiteralPasswordIsHashed(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	out, err := f.service.Update(ctx, created.ID(), entity.Document{"password": "newpass"})
	require.NoError(t, err)
	assert.NotContains(t, out, "password")

	stored, err := f.store.Get(ctx, f.typ.Collection, created.ID())
	require.NoError(t, err)
	assert.True(t, auth.NewBcryptHasher().Check("newpass", stored.StringField("password")))
}

func TestUpdate_EmptyPasswordIsDropped(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, created.ID(), entity.Document{
		"password":    "",
		"companyName": "Acme Holdings",
	})
	require.NoError(t, err)

	stored, err := f.store.Get(ctx, f.typ.Collection, created.ID())
	require.NoError(t, err)
	assert.True(t, auth.NewBcryptHasher().Check("s3cret!", stored.StringField("password")))
}

func TestUpdate_FalseResetFlagIsStrippedWithoutRotation(t *testing.T) {
	f := createTestRegistry(t, entity.Employee)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validEmployee("jane@corp.com"))
	require.NoError(t, err)

	out, err := f.service.Update(ctx, created.ID(), entity.Document{
		"updatePassword": false,
		"designation":    "Senior Engineer",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "password")

	stored, err := f.store.Get(ctx, f.typ.Collection, created.ID())
	require.NoError(t, err)
	assert.NotContains(t, stored, "updatePassword")
	assert.True(t, auth.NewBcryptHasher().Check("admin", stored.StringField("password")))
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, created.ID()))

	_, err = f.service.Get(ctx, created.ID())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	assert.ErrorIs(t, f.service.Delete(ctx, created.ID()), domainerrors.ErrNotFound)
}

func TestExists(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	exists, err := f.service.Exists(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.service.Exists(ctx, "PEPRE-4242")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAll_IsSanitized(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	docs, err := f.service.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0], "password")
}

func TestSearch_CaseInsensitiveContains(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	other := validCompany("b@other.com")
	other["companyName"] = "Other Industries"
	_, err = f.service.Register(ctx, other)
	require.NoError(t, err)

	// Empty field falls back to the type's default search field.
	docs, err := f.service.Search(ctx, "", "ACME")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Acme Corp", docs[0].StringField("companyName"))
	assert.NotContains(t, docs[0], "password")

	docs, err = f.service.Search(ctx, "adminEmail", "other.com")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = f.service.Search(ctx, "companyName", "nomatch")
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = f.service.Search(ctx, "companyName", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestFilterByField_ExactCaseInsensitive(t *testing.T) {
	f := createTestRegistry(t, entity.Employee)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validEmployee("jane@corp.com"))
	require.NoError(t, err)

	docs, err := f.service.FilterByField(ctx, "designation", "engineer")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0], "password")

	docs, err = f.service.FilterByField(ctx, "designation", "Engineering")
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = f.service.FilterByField(ctx, "designation", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLogin_Success(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	out, err := f.service.Login(ctx, entity.Document{
		"adminEmail": "a@acme.com",
		"password":   "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), out.ID())
	assert.NotContains(t, out, "password")
	assert.NotEmpty(t, out["lastLogin"])

	stored, err := f.store.Get(ctx, f.typ.Collection, created.ID())
	require.NoError(t, err)
	assert.NotEmpty(t, stored["lastLogin"])
}

func TestLogin_WrongPasswordAndUnknownIdentityLookAlike(t *testing.T) {
	f := createTestRegistry(t, entity.Company)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validCompany("a@acme.com"))
	require.NoError(t, err)

	_, wrongPw := f.service.Login(ctx, entity.Document{"adminEmail": "a@acme.com", "password": "nope"})
	_, unknown := f.service.Login(ctx, entity.Document{"adminEmail": "ghost@acme.com", "password": "nope"})

	assert.ErrorIs(t, wrongPw, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, domainerrors.ErrInvalidCredentials)
}

func TestLogin_MissingCredentials(t *testing.T) {
	f := createTestRegistry(t, entity.Company)

	_, err := f.service.Login(context.Background(), entity.Document{"adminEmail": "a@acme.com"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLogin_EmployeeWithAssignedPassword(t *testing.T) {
	f := createTestRegistry(t, entity.Employee)
	ctx := context.Background()

	created, err := f.service.Register(ctx, validEmployee("jane@corp.com"))
	require.NoError(t, err)

	out, err := f.service.Login(ctx, entity.Document{
		"email":    "jane@corp.com",
		"password": created.StringField("password"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), out.ID())
}
