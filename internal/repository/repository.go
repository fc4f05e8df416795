// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to persist data,
// abstracting SQL logic away from the rest of the application.
package repository
