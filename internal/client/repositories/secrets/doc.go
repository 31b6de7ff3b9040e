// Package secrets is the device secret store of the client: a SQLite table
// of (service, account) entries whose values are sealed with AES-GCM under
// a key derived from the device key file.
//
// SQLiteRepository persists already sealed records; SealedStore is the
// secret-store contract used by the credential store and seals/opens values
// on the way in and out.
//
//	store := secrets.NewSealedStore(secrets.NewSQLiteRepository(db), deviceKey)
//	_ = store.Set(ctx, "com.studyplanner.credentials", "credentials", blob)
//	v, err := store.Get(ctx, "com.studyplanner.credentials", "credentials")
//	_ = store.DeleteAll(ctx, "com.studyplanner.credentials")
package secrets
