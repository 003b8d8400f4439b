// Package reviews implements the labeled product review dataset: a CSV table
// with a Text column and a Score column holding a 1 to 5 star rating.
package reviews
