/*
Package ports defines the driven ports (interfaces) of the document engine.

These interfaces decouple generation from the systems that own templates,
question configurations and protocol errors, so the same engine runs against
memory, the filesystem, a loam repository or Redis.

# Key Interfaces

  - TemplateStore: supplies the active template package for a type and language.
  - QuestionConfigStore: supplies the question-to-cell configuration of a template.
  - ErrorSink: receives protocol errors produced for out-of-bounds values.
  - DistributedLocker: coordinates cache fills across instances.

The Run*Contract functions are reusable test suites every adapter runs.
*/
package ports
