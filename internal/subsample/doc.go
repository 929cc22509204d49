// Package subsample reduces point-cloud density by keeping one
// representative point per occupied grid cell, and maps attributes computed
// on the reduced cloud back onto the full-resolution cloud.
package subsample
