// README: Common geographic value object used across modules.
package types

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}
