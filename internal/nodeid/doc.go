// internal/nodeid/doc.go

/*
Package nodeid provides node identifiers and the structured representation of
ports, the named attachment points that links join.

The canonical text form of a port is `node.attribute:direction`, e.g.
`feOffset-1.result:out`. This package centralizes all formatting and parsing
of that form, and supplies the injectable identifier generators used when
nodes are created.
*/
package nodeid
