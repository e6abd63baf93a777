// Package query implements the search, sort and paging pipeline behind listing
// grids. It works on any row type implementing Record.
package query
