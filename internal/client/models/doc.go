// Package models defines the client-side rows of the agenda: subjects,
// class sessions and the fixed evening time slots they are booked into.
//
// JSON field names follow the documents stored by the backend
// ("nome", "professor", "cor", "data", "disciplinaId", "horario").
package models
