package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"lore-sync/core/lore"
	"lore-sync/core/remote"
)

// ErrorKind classifies record and category failures in results.
type ErrorKind string

const (
	KindMapping          ErrorKind = "mapping_error"
	KindSchemaConflict   ErrorKind = "schema_conflict"
	KindDuplicateName    ErrorKind = "duplicate_name_warning"
	KindIdentityConflict ErrorKind = "identity_conflict"
	KindStaleRemoteID    ErrorKind = "stale_remote_id"
	KindRemoteCall       ErrorKind = "remote_call_failure"
	KindConfiguration    ErrorKind = "configuration_error"
	KindLocalStore       ErrorKind = "local_store_failure"
	KindInternal         ErrorKind = "internal_error"
)

// ErrNoTable is returned when a category has no remote table configured.
var ErrNoTable = errors.New("no remote table configured")

// MappingError means a record cannot be converted, usually a missing required field.
type MappingError struct {
	Category   lore.Category
	Identifier string
	Field      string
	Reason     string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %q: field %s: %s", e.Category, e.Identifier, e.Field, e.Reason)
}

// SchemaConflict means a remote property exists with a different type than mapped.
type SchemaConflict struct {
	Category lore.Category       `json:"category"`
	Property string              `json:"property"`
	Want     remote.PropertyType `json:"want"`
	Have     remote.PropertyType `json:"have"`
}

func (e *SchemaConflict) Error() string {
	return fmt.Sprintf("%s: property %q is %s remotely, mapping expects %s", e.Category, e.Property, e.Have, e.Want)
}

// DuplicateNameWarning means several rows share a normalized name.
type DuplicateNameWarning struct {
	Category lore.Category
	Name     string
	RowIDs   []string
	Chosen   string
}

func (e *DuplicateNameWarning) Error() string {
	return fmt.Sprintf("%s: %d rows named %q (%s), using %s",
		e.Category, len(e.RowIDs), e.Name, strings.Join(e.RowIDs, ", "), e.Chosen)
}

// IdentityConflict means a stored remote id and the name index disagree.
type IdentityConflict struct {
	Category lore.Category
	Name     string
	StoredID string
	NamedIDs []string
}

func (e *IdentityConflict) Error() string {
	return fmt.Sprintf("%s: %q is stamped %s but the name matches %s; keeping the stamped row",
		e.Category, e.Name, e.StoredID, strings.Join(e.NamedIDs, ", "))
}

// StaleRemoteID means a stamped remote id no longer exists remotely.
type StaleRemoteID struct {
	Category lore.Category
	Name     string
	StoredID string
}

func (e *StaleRemoteID) Error() string {
	return fmt.Sprintf("%s: %q is stamped %s which no longer exists remotely", e.Category, e.Name, e.StoredID)
}

// LocalStoreError wraps failures reading or writing local records.
type LocalStoreError struct {
	Op  string
	Err error
}

func (e *LocalStoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *LocalStoreError) Unwrap() error {
	return e.Err
}

// Classify maps an error to its ErrorKind.
func Classify(err error) ErrorKind {
	var (
		mapping   *MappingError
		conflict  *SchemaConflict
		duplicate *DuplicateNameWarning
		identity  *IdentityConflict
		stale     *StaleRemoteID
		local     *LocalStoreError
		call      *remote.CallError
	)
	switch {
	case errors.As(err, &mapping):
		return KindMapping
	case errors.As(err, &conflict):
		return KindSchemaConflict
	case errors.As(err, &duplicate):
		return KindDuplicateName
	case errors.As(err, &identity):
		return KindIdentityConflict
	case errors.As(err, &stale):
		return KindStaleRemoteID
	case errors.As(err, &local):
		return KindLocalStore
	case errors.As(err, &call):
		return KindRemoteCall
	case errors.Is(err, ErrNoTable), errors.Is(err, lore.ErrUnknownCategory):
		return KindConfiguration
	default:
		return KindInternal
	}
}
