/*
Package custody defines the common interfaces used to assemble a
shared-custody application on top of tendermint, as well as the simpler
components that would be too much overhead as interfaces.

We pass context through context.Context between app, middleware, and
handlers. The package defines keys for the block height, chain id and logger.
Each extension, such as sigs, may add its own keys to enrich the context.

There should exist two functions for every XYZ of type T that we want to
support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level modules
overwriting the value.
*/
package custody
