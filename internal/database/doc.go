// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (postgres or sqlite), pool tuning, migrations
//	├── jsonquery.go     # Dialect-aware JSON array containment
//	├── patch/           # Presence-aware fields and partial UPDATE assignments
//	├── admins/          # Admin accounts
//	├── novels/          # Novels, listing filters, cascading delete
//	├── chapters/        # Chapters scoped to a novel
//	├── relations/       # Directional novel relations
//	├── blog/            # Blog posts
//	├── apps/            # Apps
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database, logger)
//
//	novelsRepo := novels.NewRepository(db.DB)
//	novel, err := novelsRepo.GetBySlug(ctx, "novel-3fa85f64")
//
// # Errors
//
// Repositories return *apperr.Error values: a missing row is NotFound, a unique
// violation is Conflict and anything else is Database. The connection is opened
// with TranslateError so driver errors arrive as gorm sentinel errors.
//
// # Updates
//
// Updates take a patch.Changes holding only the columns the caller sent and
// issue a single UPDATE ... RETURNING statement keyed by slug. An empty change
// set is rejected before any statement is built.
package database
