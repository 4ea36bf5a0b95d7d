package engine

// TickRoundingDisabled documents that price comparison throughout the
// matching loop is raw float64 equality, with no tick-size rounding or
// snapping. This is the system's documented reference behavior; the constant
// exists so the policy is discoverable and swappable without touching
// crossAndRest.
const TickRoundingDisabled = true
