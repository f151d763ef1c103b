// Package connectors feeds files from outside the application into the
// ingestion pipeline. The filesystem connector watches a drop folder and
// uploads every supported file that appears in it.
package connectors
