// Package core contains the EasyJob API client, its credential store contract,
// the refresh-and-retry request protocol, and the error taxonomy. Transport and
// storage adapters depend on this package; core must not depend on them.
package core
