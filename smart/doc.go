/*
Package smart builds and queries the static berth topology from Network Rail
SMART reference data.

Each SMART record describes one directed berth step, optionally attributed to
a station (STANOX). BuildGraph turns a batch of records into an immutable
Graph with O(1) successor, predecessor and attribution lookups; malformed
records are skipped and counted, never aborting the load.

The Graph answers the two traversal questions the tracking engine needs:

  - Enumerate: ordered breadth-first berth listing from a starting berth in
    one direction, bounded, cycle-safe (loop lines terminate).
  - BerthsAroundStation: every berth within N stations of a center STANOX,
    walking outward in both directions.

A Store holds the current graph behind an atomic pointer so a periodic
refresh can swap a freshly built graph in without blocking readers; a slow or
failed refresh leaves the last-known-good graph in place.

Loader fetches the reference file (Basic Auth with manual redirect handling,
transparent gzip); SaveCache/LoadCache keep a gob snapshot on disk so
restarts do not re-download unchanged data.
*/
package smart
