/*
Package config manages configuration parsing and validation for narrate.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |   HCL   |   |  JSON   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Loads the optional .narrate.yaml (or .hcl / .json) from the project root
- Fills defaults so a project with no config produces the standard report
- Resolves output, assets and log paths against the project root

🔄 Flow:
1. LoadOrDefault picks the explicit path or the default file
2. The registered Parser for the extension decodes it strictly
3. Validate fills defaults and rejects bad patterns or providers

💡 Example (.narrate.yaml):

	title: Churn Study
	summarizer:
	  provider: ollama
	  model: llama3
	sections:
	  - dir: Code
	    title: Code Analysis
	key_files:
	  - pattern: "Code/Cluster_Analysis.ipynb"
	    title: Cluster Analysis

The same in HCL:

	title = "Churn Study"
	summarizer {
	  provider = "ollama"
	  model    = "llama3"
	}
	section {
	  dir   = "Code"
	  title = "Code Analysis"
	}
	key_file {
	  pattern = "Code/Cluster_Analysis.ipynb"
	  title   = "Cluster Analysis"
	}
*/
package config
