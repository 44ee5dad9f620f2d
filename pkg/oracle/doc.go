// Package oracle asks an OpenAI-compatible chat-completion endpoint the
// questions the pipeline cannot answer deterministically.
//
// # Overview
//
// Three questions are asked:
//
//   - [Oracle.FindPage]: where is the official download page of a component?
//   - [Oracle.IsSourcePackage]: is this URL a source-code download of the component?
//   - [Oracle.IsRelatedToComponent]: is this URL related to the component at all?
//
// [Oracle.Classify] combines the two URL questions, asking the second only
// when the first was answered "yes".
//
// # Usage
//
//	client := oracle.NewChatClient(cfg.API, transport)
//	o := oracle.New(client, transport, oracle.Options{})
//
//	ok, err := o.Classify(ctx, "https://ftp.gnu.org/gnu/make/make-4.4.tar.gz", "make")
//
// # Replies
//
// Yes/no replies are affirmative when they contain "yes" in any letter case.
// Page replies must carry exactly one fenced ```json block. Anything the
// endpoint returns that cannot be interpreted is reported with
// [errors.ErrCodeOracleContract].
//
// Replies are never cached: the same question asked twice is sent twice.
package oracle
