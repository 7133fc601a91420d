package model

// HostStats counts acquisition attempts and successes for one host
// within a single batch run.
type HostStats struct {
	Attempted int
	Succeeded int
}

// Clean reports whether at least one attempt was made and every attempt
// succeeded.
func (hs HostStats) Clean() bool {
	return hs.Attempted > 0 && hs.Attempted == hs.Succeeded
}

// DomainStats tracks per-host counters for one batch run. The batch
// owns it and threads it through the orchestrator explicitly; it is
// never shared across runs and needs no locking under the strictly
// sequential processing model.
type DomainStats map[string]*HostStats

// Attempt records one acquisition attempt against host.
func (ds DomainStats) Attempt(host string) {
	ds.get(host).Attempted++
}

// Succeed records one successful acquisition against host.
func (ds DomainStats) Succeed(host string) {
	ds.get(host).Succeeded++
}

// Clean reports whether host had at least one attempt and zero
// failures in this run.
func (ds DomainStats) Clean(host string) bool {
	hs, ok := ds[host]
	return ok && hs.Clean()
}

func (ds DomainStats) get(host string) *HostStats {
	hs, ok := ds[host]
	if !ok {
		hs = &HostStats{}
		ds[host] = hs
	}
	return hs
}
