// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - NovelStore, ChapterStore, RelationStore: novels and their parts (internal/http/stores.go)
//   - BlogStore, AppStore: blog posts and apps (internal/http/stores.go)
//   - AdminStore: admin accounts (internal/auth/service.go)
//   - BlogSource, NovelSource, ChapterSource: read side of the static builder (internal/site/builder.go)
//
// ## Authentication Interfaces
//
//   - Verifier: bearer token checks used by the middleware (internal/auth/middleware.go)
//   - Authenticator: login and first-admin registration (internal/http/stores.go)
//   - AttemptStore: failed login counters, in memory or redis (internal/auth/ratelimit.go)
//
// ## Background Work Interfaces
//
//   - SiteRefresher: queue a static site rebuild after a mutation (internal/http/stores.go)
//   - SiteBuilder: run a rebuild (internal/tasks, internal/scheduler)
//   - AuditEventCleaner, AuditCleanupEnqueuer: audit retention (internal/tasks, internal/scheduler)
//
// # Adding a New Content Type
//
//  1. Add the entity to internal/entities and to database.Models.
//
//  2. Create a repository sub-package under internal/database:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//     var UpdatableColumns = []string{...}
//
//  3. Declare the store interface in internal/http/stores.go and write a
//     controller that records mutations through contentHooks.
//
//  4. Register routes in router.go and wire the repository in
//     internal/entrypoint/app.go.
//
//  5. Add a compile-time check to checks.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
