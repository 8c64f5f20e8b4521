/*
Package utils contains the decorators that every application stack is built
from: recovery from panics, savepoints, logging, metrics and action tagging.
*/
package utils
