// Package compiler turns markup templates into reusable rendering programs.
//
// A template is compiled once into an ir.Program: a flat list of
// operations. Invoking the program with a context replays the operations
// and sends incremental DOM instructions (open element, void element,
// close element, text) to a sink.Sink. The same program can be invoked
// again with a new context to re-synchronize a tree with minimal mutations.
//
// Template syntax:
//
//	<ul class="todos" data-count=stats.open ...props>
//	  @for (todo, i of todos) {
//	    <li onClick="handlers.toggle">{{ todo.title }}</li>
//	  }
//	</ul>
//	@if (user.active) { on } @else { off }
//
// Quoted attribute values are literals, unquoted ones are context paths and
// bare names are boolean. Attributes starting with "on" bind handlers
// resolved from the context, "class" attributes are merged, and "...path"
// spreads a mapping into attributes.
//
// Main sub-packages:
//
//   - src/ml_parser: markup tokenizer and tree builder
//   - src/render3: the template AST and its construction from markup
//   - src/attrs: attribute classification
//   - src/scope: context paths, ordered maps and YAML context loading
//   - src/template/pipeline: lowering of the AST into an ir.Program
//   - src/sink: the instruction sink interface and a recorder
//   - src/dom, src/render: sinks building x/net/html trees and gomponents nodes
//   - src/config: idomc.yaml project settings
package compiler
