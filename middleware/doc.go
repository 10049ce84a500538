// Package middleware provides net/http wrappers around the kvauth engine:
// Guard requires a valid session, AdminGuard additionally requires the admin
// role. Both read the token from the Authorization: Bearer header and treat
// it as an opaque string.
package middleware
