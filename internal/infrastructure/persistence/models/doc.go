// Package models contains the gorm persistence models and their conversions
// to and from the domain entities. Zoho id columns are nullable so that
// unbound records never collide on their unique indexes.
package models
