/*
Package project builds the project context: a single walk over the project
tree that buckets data files, visualizations and model scripts, sniffs
notebooks for analysis topics and collects key terms from file names.

The Skipper built here is shared by every later walk so the scanner and the
dispatcher agree on which files are eligible.
*/
package project
