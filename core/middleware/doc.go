// Package middleware groups the Fiber middleware mounted by the start command.
//
//   - auth: rejects requests without the configured X-API-Key (or Bearer token).
//     An empty key disables the check; /health is skipped so probes stay public.
//   - rayid: tags every request with an X-Ray-ID, reusing a caller-supplied one,
//     so log lines from one sync request can be correlated.
package middleware
