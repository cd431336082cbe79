// Package docx maps HTML onto WordprocessingML documents.
//
// Conversion goes through an intermediate representation (DocumentModel):
// ParseHTML builds it from an HTML tree, WriteDocument renders it with
// unioffice, and ParseDocumentModel reads a DOCX back into it.
package docx
