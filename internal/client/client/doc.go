// Package client contains the client-side building blocks that talk to the
// recipebook backend and bootstrap local storage.
//
// # Overview
//
//  1. A transport-agnostic API contract (Client): Login, Register, recipe
//     CRUD and Ping.
//  2. A REST implementation (HTTPClient) that attaches the bearer token to
//     every request and reports non-2xx answers as *APIError.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// MapError folds any error returned by a Client into the closed
// models.NetworkError set shown to the user. ErrorMessage picks the text
// stored on a recipe that failed to sync.
package client
