// Package types defines the configuration, entity types, collaborator
// interfaces, and standard errors shared by the bazaar marketplace client.
//
// The client is split into a token store (internal/session), an endpoint
// catalog (internal/catalog), a request pipeline (internal/pipeline), and a
// route guard (internal/route). This package holds the contracts those
// components exchange so that each can be constructed and tested in isolation.
package types
