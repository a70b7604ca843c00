// Package inference defines the wire types exchanged through the work queue
// and the result log: the Job submitted by sensors and the ResultRecord written
// by the router worker once a Job has been served.
//
// Both types are JSON encoded. A Job that cannot be parsed is reported as a
// *DecodeError so callers can skip it without stopping.
package inference
