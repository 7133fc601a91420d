package model

// Package model holds the plain data types shared by the acquisition
// pipeline: per-host run statistics, manifest captures, DRM
// classifications, and per-URL outcomes. It has no behavior beyond small
// helpers and no dependencies on the other internal packages.
