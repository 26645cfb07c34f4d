// Package trace provides decision-trace recording for simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// CommandRecord captures a single command handed to a drone.
type CommandRecord struct {
	Tick      int    `json:"tick"`
	DroneID   int    `json:"drone"`
	Tag       string `json:"tag"` // "L" or "D"
	SiteID    int    `json:"site"`
	ProductID int    `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CompletionRecord captures an order completing and the score it earned.
type CompletionRecord struct {
	Tick    int `json:"tick"`
	OrderID int `json:"order"`
	Score   int `json:"score"`
}
