// Package common contains shared constants and sentinel errors used across
// agenda components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Collection names in the document store.
const (
	CollectionSubjects = "disciplinas"
	CollectionSessions = "aulas"
)

// Document field names shared by the client and the backend.
const (
	FieldOwnerID   = "ownerId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Session fields the client filters or defaults on.
const (
	FieldSubjectID = "disciplinaId"
	FieldStatus    = "status"
)
