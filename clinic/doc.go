// Package clinic holds the concrete repositories of the veterinary clinic.
//
// Referrals, returns and the three lab panels (hemogram, clinical chemistry
// and urinalysis) are cache-aside repositories built on
// repositorycache.CachedRepository: lookups by id are served from an identity
// cache, while range queries and aggregates always go to storage.
//
// Animals are stored across the animal base table and exactly one satellite
// table, animal_grande or animal_pequenio, and every write runs in a single
// transaction. Species and breeds are catalog data served through the
// bounded read-through cache.
//
// Doctors, owners, students and consultations are plain repositories over
// repository.Table. Doctors and animals are deactivated instead of deleted.
package clinic
