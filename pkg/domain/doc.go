/*
Package domain contains the core domain models of the protocol fill engine.

It defines the entities that flow through one document-generation call: how a question maps
onto the spreadsheet, the answers collected for it, the cell writes derived from them and the
calculated values and protocol errors produced alongside. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - QuestionConfig: Describes where and how one question is written into the document.
  - Value / Answers: The tagged union of answer values (string, number, bool) keyed by question id.
  - CellWrite: A literal value destined for one cell reference.
  - CalculationResult: The outcome of evaluating a calculated question.
  - ProtocolError: A candidate error record for out-of-bounds measurements.
  - Template: The original document package bytes plus per-template metadata.
*/
package domain
