// Package station resolves tenant ids to their guarded media roots.
package station
