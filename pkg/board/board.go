package board

import (
	"math"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Signal classifications carried by connections. The signal drives both
// spring stiffness during layout and path geometry during routing.
const (
	SignalDigital   = "digital"
	SignalAnalog    = "analog"
	SignalPower     = "power"
	SignalGround    = "ground"
	SignalHierarchy = "hierarchy"
	SignalMismatch  = "mismatch"
)

// DefaultMass is assigned to nodes created with a zero or negative mass.
// A zero mass would produce infinite acceleration under force application.
const DefaultMass = 1.0

// Node groups used by rendering collaborators. The solver ignores Group
// entirely; the constants exist so callers and the solver agree on spelling.
const (
	GroupPassive   = "passive"
	GroupActive    = "active"
	GroupConnector = "connector"
)

// =============================================================================
// Point - 2D Coordinate
// =============================================================================

// Point is a coordinate or offset in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rotate returns the point rotated around the origin by deg degrees,
// using the standard 2D rotation matrix.
func (p Point) Rotate(deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// =============================================================================
// Node - Positioned Component
// =============================================================================

// Node is a rectangular component on the board. X and Y address the
// top-left corner; Posts are terminal offsets relative to the un-rotated
// frame. The zero value is not usable - ID, Width, and Height must be set.
type Node struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Mass determines inertia under force application. Non-positive
	// values are replaced with DefaultMass at engine insertion.
	Mass float64 `json:"mass,omitempty"`

	// VX and VY are the current velocity components. They are owned by
	// the physics engine and zeroed between layout invocations.
	VX float64 `json:"vx,omitempty"`
	VY float64 `json:"vy,omitempty"`

	// Fixed pins the node: the engine never moves it.
	Fixed bool `json:"fixed,omitempty"`

	// GridAligned opts the node into post-layout grid snapping.
	GridAligned bool `json:"grid_aligned,omitempty"`

	// Group is an opaque classification tag for rendering collaborators.
	Group string `json:"group,omitempty"`

	// Rotation in degrees, applied to post offsets during routing.
	Rotation float64 `json:"rotation,omitempty"`

	// Posts are ordered terminal offsets in the un-rotated frame.
	Posts []Point `json:"posts,omitempty"`
}

// Center returns the geometric center of the node's rectangle.
func (n *Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Overlaps reports whether the axis-aligned bounding boxes of n and m
// intersect.
func (n *Node) Overlaps(m *Node) bool {
	return n.X < m.X+m.Width && n.X+n.Width > m.X &&
		n.Y < m.Y+m.Height && n.Y+n.Height > m.Y
}

// Post returns the absolute position of the i-th terminal, accounting for
// the node's rotation. Out-of-range indices resolve to the node center,
// which keeps routing well-defined for sloppy inputs.
func (n *Node) Post(i int) Point {
	if i < 0 || i >= len(n.Posts) {
		return n.Center()
	}
	off := n.Posts[i].Rotate(n.Rotation)
	return Point{X: n.X + off.X, Y: n.Y + off.Y}
}

// =============================================================================
// Connection - Edge with Signal Semantics
// =============================================================================

// Connection links two nodes by ID. Strength scales the spring force and
// IdealLength is the target center-to-center distance during layout.
// FromPost and ToPost select terminals for routing.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`

	Strength    float64 `json:"strength,omitempty"`
	IdealLength float64 `json:"ideal_length,omitempty"`

	// Signal classifies the connection (see Signal* constants). It scales
	// spring stiffness during layout and selects routing geometry.
	Signal string `json:"signal,omitempty"`

	FromPost int `json:"from_post,omitempty"`
	ToPost   int `json:"to_post,omitempty"`

	// AutoRoute enables geometric routing. When false the router returns
	// ManualRoute unchanged.
	AutoRoute   bool    `json:"auto_route"`
	ManualRoute []Point `json:"manual_route,omitempty"`
}

// IsPower reports whether the connection carries a supply or ground rail.
// Rails are routed as direct star-topology segments.
func (c *Connection) IsPower() bool {
	return c.Signal == SignalPower || c.Signal == SignalGround
}
