// Package command implements the chat command resolution and counter
// mutation engine.
//
// A raw chat line flows through one pipeline per message: the resolver
// parses the first token against the built-in command table, broadcaster
// overrides, and dynamically configured custom counters (with catalog
// aliases); the permission gate checks the caller's role against the
// command's tier; the cooldown tracker rate-limits on the command's base
// form; mutations are applied with a zero floor and the screams feature
// flag; and milestone detection emits one event per threshold crossed by
// the mutation. Rejections at any step are silent to avoid chat spam, and
// failures are contained to the message that caused them.
//
// Grammar accepted for the first token:
//
//	!<base>                       exact match
//	!<base><digits>               suffix amount (!sw+5 -> base !sw+, amount 5)
//	!<letters><digits><op>        embedded amount (!sw5+ -> base !sw+, amount 5)
//	!<counterId>[<op>[<digits>]]  custom counter, counterId in [A-Za-z0-9_-]{1,64}
//
// Static matches always win over dynamic custom-counter resolution, and a
// broadcaster override shadows a built-in default with the same key.
package command
