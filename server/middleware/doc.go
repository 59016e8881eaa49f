// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware shared by every route.

Middlewares have the [Middleware] signature and are chained by the router.
Handlers return an error and are adapted with [CatchError], which buffers
their output, turns unhandled errors into an error page and logs the request.
*/
package middleware
