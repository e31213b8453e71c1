/*
Package config manages configuration parsing and validation for gridshift.

	            +-------------+
	            |   Config    |
	            | (Job spec)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   YAML    |           |   HCL   |
	| Parser    |           | Parser  |
	+-----------+           +---------+

🎯 Purpose:
- Loads transform job definitions from file
- Validates configuration values and applies defaults
- Supports multiple config formats behind one interface

🔄 Flow:
1. Reads configuration from file
2. Picks the parser registered for the file extension
3. Parses format-specific syntax
4. Validates values and fills in defaults

⚡ Key Responsibilities:
- Configuration parsing
- Required-field validation (inputs, EPSG pair, output directory)
- Default value management (overwrite policy, worker count)
- Format abstraction

📝 Design Philosophy:
The config package is the source of truth for a transform job. A job file
names the input grids, the CRS pair, and the destination; everything else
has a safe default. Parsers register themselves at init time, so adding a
format never touches the loading path.
*/
package config
