/*
Package objc binds the Objective-C object protocol on top of the rc ownership model.

Wrappers embed Instance, which carries an rc.Handle, and declare the marker method of
every ancestor and protocol they can stand in for:

	type NSObject struct{ objc.Instance[objc.NSObjectType] }

	func (*NSObject) KindOfNSObject() {}

Marker relations are not transitive. A wrapper for a subclass lists every ancestor
marker itself.

Objects returned from the runtime are adopted through the registry (Register, Adopt
and RetainAs) so generic code such as containers can build wrappers of any element
type.
*/
package objc
