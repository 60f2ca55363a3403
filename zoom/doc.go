// Package zoom turns pointer, wheel and touch gestures into new axis
// domains.
//
// A Controller mutates the viewport.AxisDomain values it is configured with
// and never touches rendering. Every change goes through ApplyNewDomain,
// which keeps the domain inside the axis clamp and filters out changes too
// small to matter. Listeners registered with OnDomainChanged run once per
// gesture event that moved at least one axis; they typically call
// viewport.Model.RequestRedraw.
//
// Event coordinates are in CSS pixels relative to the chart surface, the
// same space the axis pixel ranges use.
package zoom
