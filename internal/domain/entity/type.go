package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// CredentialSource selects where a new record's initial password comes from.
type CredentialSource int

const (
	// CredentialsNone means the entity type stores no credentials.
	CredentialsNone CredentialSource = iota

	// CredentialsFromCaller means the caller supplies the password at
	// registration and it is a required field.
	CredentialsFromCaller

	// CredentialsFromPolicy means the caller's password is ignored and the
	// configured initial-password policy assigns one.
	CredentialsFromPolicy
)

// Type describes one entity type's registry conventions: collection name,
// human-readable ID scheme, identity field and field requirements.
type Type struct {
	// Name is the lowercase singular name used in log and response text.
	Name string

	// Collection is the document-store collection holding this type.
	Collection string

	// IDPrefix is the literal prefix of every generated ID, separator
	// included (e.g. "PEPRE-", "EMP").
	IDPrefix string

	// IDSeed is the numeric suffix of the very first ID.
	IDSeed int

	// IDPadWidth zero-pads the numeric suffix to this width. Zero means no
	// padding.
	IDPadWidth int

	// IdentityField is the field required to be unique across the
	// collection (email / adminEmail).
	IdentityField string

	// RequiredFields must be present and non-empty at registration.
	RequiredFields []string

	// OptionalFields are copied onto the record only when present in the
	// registration input.
	OptionalFields []string

	// Credentials selects the initial password source.
	Credentials CredentialSource

	// CategoryPath and CategoryField back the GET /<category>/<value>
	// filter route (e.g. /size/50 filtering on companySize).
	CategoryPath  string
	CategoryField string

	// DefaultSearchField is searched when a query names no field.
	DefaultSearchField string
}

// Title returns the name with its first letter upper-cased, for messages.
func (t Type) Title() string {
	if t.Name == "" {
		return ""
	}

	return strings.ToUpper(t.Name[:1]) + t.Name[1:]
}

// FormatID renders a numeric suffix as a full ID for this type.
func (t Type) FormatID(n int) string {
	return fmt.Sprintf("%s%0*d", t.IDPrefix, t.IDPadWidth, n)
}

// SeedID is the ID assigned when the collection holds no parsable IDs.
func (t Type) SeedID() string {
	return t.FormatID(t.IDSeed)
}

// ParseIDNumber extracts the numeric suffix from an ID of this type.
// Foreign prefixes and non-numeric suffixes report ok=false.
func (t Type) ParseIDNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, t.IDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(t.IDPrefix):])
	if err != nil {
		return 0, false
	}

	return n, true
}

// Company is the company-registry entity type. Identity is the admin email;
// the admin chooses the password at registration.
var Company = Type{
	Name:          "company",
	Collection:    "companies",
	IDPrefix:      "PEPRE-",
	IDSeed:        1000,
	IDPadWidth:    0,
	IdentityField: "adminEmail",
	RequiredFields: []string{
		"companyName", "companySize", "adminEmail", "password",
	},
	OptionalFields: []string{
		"adminName", "address", "phoneNumber", "industry", "website",
	},
	Credentials:        CredentialsFromCaller,
	CategoryPath:       "size",
	CategoryField:      "companySize",
	DefaultSearchField: "companyName",
}

// Employee is the employee-registry entity type. Identity is the email;
// the initial password comes from the configured policy, not the caller.
var Employee = Type{
	Name:          "employee",
	Collection:    "employees",
	IDPrefix:      "EMP",
	IDSeed:        1,
	IDPadWidth:    3,
	IdentityField: "email",
	RequiredFields: []string{
		"name", "dateOfBirth", "email", "address",
		"phoneNumber", "designation", "employeeShiftHours",
	},
	OptionalFields: []string{
		"age", "bloodType", "ctc",
	},
	Credentials:        CredentialsFromPolicy,
	CategoryPath:       "designation",
	CategoryField:      "designation",
	DefaultSearchField: "name",
}
