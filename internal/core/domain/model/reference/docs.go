// Package reference describes the master data the sync service reads but never
// writes: partners, price lists, payment terms, sales teams, companies and products.
package reference
