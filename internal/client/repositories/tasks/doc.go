// Package tasks persists study tasks in the local SQLite database.
//
// Timestamps are stored as UTC unix milliseconds so that ordering by
// deadline is a plain integer comparison. Listing and search results are
// always ordered by ascending deadline, ties broken by creation time.
//
//	repo := tasks.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, task)
//	pending := false
//	list, _ := repo.List(ctx, &pending)
//	hits, _ := repo.Search(ctx, "calc")
//	_ = repo.SetStatus(ctx, task.ID, models.TaskCompleted)
//	_ = repo.Delete(ctx, task.ID)
package tasks
