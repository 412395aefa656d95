// Command soundguard classifies short audio clips and transcribes them,
// flagging distress keywords.
//
//	soundguard serve               run the HTTP API
//	soundguard analyze clip.webm   analyse one file and print the result
//	soundguard version             print build information
//
// Configuration comes from config.yml, .env and the environment. See
// appConfig for the keys.
package main
