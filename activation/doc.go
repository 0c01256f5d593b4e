// Package activation sequences a single backdrop mount from first render to
// a running GPU effect or a permanent static fallback.
//
// Every mount starts in NotReady. Nothing happens until a deferred client
// confirmation fires, so a pre-rendered page and the first client pass always
// agree. After confirmation the device is assessed once; ineligible devices
// settle in Static. Eligible mounts wait for visibility, pause for a short
// load delay, then load the heavy renderer exactly once.
//
// Transitions are forward only. Static and Error are absorbing, and Dispose
// discards every signal that arrives afterwards.
package activation
