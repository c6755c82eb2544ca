package ports

// TickMetrics counts executor decisions per action kind and target
// outcome, plus reachability-oracle fail-opens so outages stay
// visible.
type TickMetrics interface {
	RecordAction(kind string)
	RecordTargetCompleted()
	RecordTargetFailed()
	RecordTargetSkipped()
	RecordReachabilityFailOpen()
}
