/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package fast implements a FAST (FIX Adapted for STreaming) 1.x.1 codec: a
bidirectional, template-driven, stateful encoder and decoder of compact
binary market data messages.

# Overview

A FAST template, compiled from an XML document conforming to the FAST
template schema (namespace http://www.fixprotocol.org/ns/fast/td/1.1),
describes the field tree of one message type: scalars, groups, sequences,
and references to other templates. Each scalar field carries an operator
(none, constant, default, copy, increment, delta, tail) that determines
how its wire representation is derived from a remembered prior value.
Prior values live in dictionaries, which are scoped (global, per-template,
per-type, or user-named) and persist for the lifetime of a codec session.

Decoding a message first reads a presence map (PMAP), a bitstream that
tells the decoder which fields carry bytes on the wire at all; the PMAP is
consumed left to right as fields are visited in declaration order.
Encoding mirrors this by buffering PMAP bits alongside the value stream
and prepending the finished PMAP bytes at the enclosing scope's exit.

# Data Structures

A compiled Template is an immutable tree of Instructions (Scalar, Group,
Sequence, TemplateRef, and the Decimal composite of an exponent/mantissa
scalar pair). Decoder and Encoder each own a Dictionary for the session
and a map of compiled Templates keyed by template id; both are built once
via NewDecoder/NewEncoder and reused across messages.

Decoding drives a MessageFactory with a fixed sequence of callbacks
(start_template, set_value, start_group/stop_group,
start_sequence/start_sequence_item/stop_sequence_item/stop_sequence,
start_template_ref/stop_template_ref, stop_template); encoding is driven
by the mirror-image MessageSource interface. Mapping those callbacks onto
user-defined message types is explicitly out of the core's scope.
*/
package fast
