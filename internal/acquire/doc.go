package acquire

// Package acquire ties the pieces together: for each URL it runs the
// primary engine first and escalates to browser capture when the
// engine has no extractor, records per-host statistics, and writes the
// per-host titles summary after a batch. Processing is strictly
// sequential; one URL failing never stops the batch.
