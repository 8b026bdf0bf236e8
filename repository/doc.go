// Package repository defines the contract every clinic repository exposes and
// the bun-backed single-table store the concrete repositories build on.
//
// Repository[T, ID] is the only surface application code depends on:
//
//	saved, err := repo.Save(ctx, hemogram)        // assigns ID and timestamps
//	h, ok, err := repo.FindByID(ctx, saved.ID)    // ok is false when the row is absent
//	err = repo.Update(ctx, h)                     // unknown ids are a no-op
//	err = repo.Delete(ctx, saved.ID)              // physical or soft, per entity
//
// Errors fall in two categories. Validation errors (go-errors category
// "validation", text code ERR-VAL) are raised before storage is touched.
// Storage errors (CategoryStorage, text code ERR-DB) wrap driver failures and
// name the entity and operation that failed. Use IsValidation and IsStorage to
// tell them apart.
package repository
