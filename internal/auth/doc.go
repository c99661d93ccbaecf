// Package auth issues and checks the JWTs that authenticate dashboard
// users.
//
// Tokens are HS256 signed and carry the user id as subject plus name,
// email, username and role. They travel in the auth_token cookie or an
// Authorization bearer header. Logging out stores the token id in a
// denylist kept in fiber storage until the token would have expired.
//
// Routes are protected with middleware:
//
//	api := app.Group("/api/dashboard", auth.RequireAuth(svc))
//	api.Get("/users", auth.RequireRole(models.RoleAdmin), handler)
//
// Password hashing lives on models.User (Argon2id, with bcrypt accepted
// for older hashes).
package auth
