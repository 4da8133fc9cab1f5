// Package core holds the small numeric helpers and processor settings that
// the rest of the engine builds on.
package core
