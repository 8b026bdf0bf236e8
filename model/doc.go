// Package model defines the clinic records persisted by the repository layer.
//
// Records are plain values. Each exposes Validate, which checks required
// fields in declaration order and reports only the first violation as a
// go-errors validation error carrying a single FieldError. Clinically
// plausible numeric ranges for lab panels are not checked here; the
// repositories in package clinic own those rules.
//
// An Animal is either a LargeAnimal or a SmallAnimal. The variant set is
// closed: Variant can only be implemented inside this package, so a switch
// over the two concrete types is exhaustive.
package model
